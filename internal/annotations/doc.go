/*
Package annotations decodes legacy video-annotation XML files into typed
Annotation values.

A file looks like:

	<document>
	  <annotations>
	    <annotation id="annotation_1" type="text" style="popup">
	      <TEXT>go here</TEXT>
	      <action type="openUrl" trigger="click">
	        <url target="current" value="https://www.youtube.com/watch?v=yVebIlvkOnU"/>
	      </action>
	      <segment>
	        <movingRegion type="rect">
	          <rectRegion x="3.5" y="53.0" w="26.4" h="8.0" t="0:01:45.35"/>
	          <rectRegion x="3.5" y="53.0" w="26.4" h="8.0" t="0:01:59.04"/>
	        </movingRegion>
	      </segment>
	      <appearance textSize="3.6" bgColor="16777215" bgAlpha="0.8" fgColor="1710618" effects=""/>
	    </annotation>
	  </annotations>
	</document>

Only text popups are kept. Other annotation types and styles, and popups
with an empty segment, are dropped without error. Every other deviation from
the schema aborts the whole file with a *ParseError of kind
KindInvalidFormat; there are no partial results.

The action determines the Type: no action is TypeNotes, a url with
target="current" is TypeGameplay and target="new" is TypeExternalLink.
*/
package annotations
